package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
)

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"host=db port=5432 user=app password=secret dbname=visionary sslmode=disable",
		DSN(config.DBConfig{Host: "db", User: "app", Password: "secret", Name: "visionary"}))
	assert.Contains(t, DSN(config.DBConfig{Host: "db", Port: 6543}), "port=6543")
}
