// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

package warehouse

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/lib/pq" // registers "postgres"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers "sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Supported drivers.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Config describes how to reach the warehouse. For SQLite, Name is the path
// of the database file (or ":memory:") and the network fields are ignored.
type Config struct {
	Driver   string `validate:"oneof=postgres mysql sqlite"`
	Host     string `validate:"required_unless=Driver sqlite"`
	Port     int    `validate:"gte=0,lte=65535"`
	User     string
	Password string
	Name     string `validate:"required"`
	SSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
}

var validate = validator.New()

// Validate checks the config for missing or out of range fields.
func (c Config) Validate() error {
	return errors.Wrap(validate.Struct(c), "validating warehouse config")
}

// DSN returns the data source name for the configured driver. A zero Port
// means the driver's default port.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case Postgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   c.addr(5432),
			Path:   "/" + c.Name,
		}
		if c.User != "" {
			if c.Password != "" {
				u.User = url.UserPassword(c.User, c.Password)
			} else {
				u.User = url.User(c.User)
			}
		}
		if c.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
		}
		return u.String(), nil
	case MySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.addr(3306)
		mc.DBName = c.Name
		return mc.FormatDSN(), nil
	case SQLite:
		return c.Name, nil
	default:
		return "", errors.Errorf("unsupported driver %q", c.Driver)
	}
}

func (c Config) addr(defaultPort int) string {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// String returns the DSN with the password removed, for logging.
func (c Config) String() string {
	c.Password = ""
	dsn, err := c.DSN()
	if err != nil {
		return c.Driver
	}
	return c.Driver + ":" + dsn
}

// Open validates cfg, connects to the warehouse, and checks the connection
// with a ping. The returned handle is limited to a single connection, and
// maps db tags case insensitively to column and parameter names.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, errors.Wrap(err, "building dsn")
	}
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", cfg)
	}
	db.SetMaxOpenConns(1)
	db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToLower, strings.ToLower)
	return db, nil
}
