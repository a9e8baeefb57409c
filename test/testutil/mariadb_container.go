package testutil

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
)

const mariaDBRootPassword = "root"

type MariaDBContainerInfo struct {
	// DSN points at a database name used as prefix by SetupTestDB.
	DSN     string
	Cleanup func()
}

func StartMariaDBContainer() (*MariaDBContainerInfo, error) {
	cfg := mysql.NewConfig()
	cfg.User = "root"
	cfg.Passwd = mariaDBRootPassword
	cfg.Net = "tcp"
	cfg.ParseTime = true

	_, cleanup, err := startContainer(&dockertest.RunOptions{
		Repository: "mariadb",
		Tag:        "10.11",
		Env:        []string{"MARIADB_ROOT_PASSWORD=" + mariaDBRootPassword},
	}, func(res *dockertest.Resource) error {
		cfg.Addr = "localhost:" + res.GetPort("3306/tcp")
		cfg.DBName = ""
		conn, err := sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()
		return conn.Ping()
	})
	if err != nil {
		return nil, err
	}

	cfg.DBName = "contentengine"
	return &MariaDBContainerInfo{DSN: cfg.FormatDSN(), Cleanup: cleanup}, nil
}
