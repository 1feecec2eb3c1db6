// Command migrate applies the SQL schema migrations under db/migrations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	var (
		dsn  = flag.String("dsn", os.Getenv("PG_DSN"), "PostgreSQL DSN (defaults to PG_DSN)")
		path = flag.String("path", "db/migrations", "migrations directory")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("migrate: -dsn or PG_DSN required")
	}

	m, err := migrate.New("file://"+*path, *dsn)
	if err != nil {
		log.Fatalf("migrate: init: %v", err)
	}
	defer m.Close()

	switch cmd := flag.Arg(0); cmd {
	case "", "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("migrate: up: %v", err)
		}
	case "down":
		steps := 1
		if arg := flag.Arg(1); arg != "" {
			steps, err = strconv.Atoi(arg)
			if err != nil || steps <= 0 {
				log.Fatalf("migrate: invalid step count %q", arg)
			}
		}
		if err := m.Steps(-steps); err != nil {
			log.Fatalf("migrate: down: %v", err)
		}
	case "version":
		ver, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("migrate: version: %v", err)
		}
		fmt.Printf("version %d (dirty=%v)\n", ver, dirty)
	default:
		log.Fatalf("migrate: unknown command %q (want up, down or version)", cmd)
	}
}
