package contextkeys

// ContextKey is the type used for values this application stores in a
// context.Context or gin.Context.
type ContextKey string

const (
	// DBContextKey holds the *gorm.DB handle for the current request.
	// It is either the shared pool or a per-test transaction.
	DBContextKey ContextKey = "ecowork_db"
)
