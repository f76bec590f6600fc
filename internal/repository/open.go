package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/javajoker/furniture-backend/internal/config"
)

// Backends carries the connections a Set may be built on. Only the one
// matching the requested backend has to be non-nil.
type Backends struct {
	DataDir string
	Mongo   *mongo.Database
	DB      *gorm.DB
}

// Open builds the repository Set for backend.
func Open(ctx context.Context, backend string, b Backends) (*Set, error) {
	switch backend {
	case config.BackendFile:
		if b.DataDir == "" {
			return nil, fmt.Errorf("file backend requires a data directory")
		}
		return NewFileSet(b.DataDir), nil
	case config.BackendMongo:
		if b.Mongo == nil {
			return nil, fmt.Errorf("mongo backend requires a database connection")
		}
		return NewMongoSet(ctx, b.Mongo)
	case config.BackendPostgres:
		if b.DB == nil {
			return nil, fmt.Errorf("postgres backend requires a database connection")
		}
		return NewPostgresSet(b.DB), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
