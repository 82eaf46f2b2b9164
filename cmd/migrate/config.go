package main

import "booksapi/internal/config"

type target struct {
	driver string
	dsn    string
}

// resolveTarget lets -driver and -dsn override the environment.
func resolveTarget(cfg *config.Config, driver, dsn string) target {
	t := target{driver: cfg.DBDriver, dsn: cfg.DBDSN}
	if driver != "" {
		t.driver = driver
	}
	if dsn != "" {
		t.dsn = dsn
	}
	return t
}
