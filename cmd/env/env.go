package env

const (
	// Prefix is the prefix of all environment variables read by the CLI
	Prefix = "FXSTACK_"

	// DBURLSuffix is the suffix of the PostgreSQL connection string variable
	DBURLSuffix = "DB_URL"
)
