package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Roles
	RoleAdmin  = "admin"
	RoleMember = "member"

	// Database table names
	TableUsers                = "users"
	TableSubscriptionPlans    = "subscription_plans"
	TableSubscriptions        = "subscriptions"
	TableSubscriptionPayments = "subscription_payments"
	TableTransactions         = "transactions"
	TableIDCards              = "id_cards"
)
