package config

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gomongo "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// URI builds the connection string without credentials; those travel in
// options.Credential so they never end up in logs.
func (m MongoConfig) URI() string {
	return "mongodb://" + net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
}

func NewMongo(ctx context.Context, m MongoConfig) (*gomongo.Client, *gomongo.Database, error) {
	if m.Host == "" || m.Database == "" {
		return nil, nil, fmt.Errorf("empty mongo host or database")
	}

	opts := options.Client().
		ApplyURI(m.URI()).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute).
		SetServerSelectionTimeout(3 * time.Second)
	if m.Username != "" {
		opts.SetAuth(options.Credential{Username: m.Username, Password: m.Password})
	}

	client, err := gomongo.Connect(opts)
	if err != nil {
		return nil, nil, err
	}

	// verify connectivity early (fail fast)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, client.Database(m.Database), nil
}
