package database

import (
	"testing"

	"ecommerce-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestDSNBuilders(t *testing.T) {
	config := utils.DatabaseConfig{Host: "db", Port: "5433", Name: "shop", User: "app", Password: "pw"}

	assert.Equal(t, "user=app password=pw dbname=shop host=db port=5433 sslmode=disable", ConnString(config))
	assert.Equal(t, "pgx5://app:pw@db:5433/shop?sslmode=disable", URL("pgx5", config))
}
