package sqlite

import (
	"database/sql"
	"embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl embed.FS

// Open abre (o crea) la base embebida y aplica el esquema. modernc.org/sqlite
// no necesita cgo, así que el binario sigue siendo autocontenido.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}
