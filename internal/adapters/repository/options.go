package repository

// Option applies a configuration option to the GormStore.
type Option func(*GormStore)

// WithDSN sets the SQLite data source name. Use ":memory:" for an
// ephemeral store in tests.
func WithDSN(dsn string) Option {
	return func(s *GormStore) {
		if dsn != "" {
			s.dsn = dsn
		}
	}
}
