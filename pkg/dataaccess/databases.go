package dataaccess

import "context"

const (
	// DriverFile stores the guild configuration document in a JSON file.
	DriverFile = "file"

	// DriverMongo stores the guild configuration document in MongoDB.
	DriverMongo = "mongo"
)

// Pinger is implemented by stores that can check their backing storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
