package contextkeys

type contextKey string

// DBContextKey stores the request's *gorm.DB (pool or transaction).
const DBContextKey = contextKey("db")

// Keys set on gin.Context by the auth middleware.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)
