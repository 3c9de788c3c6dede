package storage

import (
	"context"
	"fmt"

	"ArtworksCrawler/internal/config"
	"ArtworksCrawler/internal/ports"
)

// New selects the sink implementation named by the configuration.
func New(ctx context.Context, cfg config.SinkConfig) (ports.ArtifactSink, error) {
	switch cfg.Kind {
	case config.SinkFile:
		return NewFileSink(cfg.File.Path), nil
	case config.SinkObjectStore:
		sink, err := NewObjectSink(ObjectStoreOptions{
			EndpointURL: cfg.ObjectStore.EndpointURL,
			AccessKey:   cfg.ObjectStore.AccessKey,
			SecretKey:   cfg.ObjectStore.SecretKey,
			Region:      cfg.ObjectStore.Region,
			Bucket:      cfg.ObjectStore.Bucket,
			Key:         cfg.ObjectStore.Key,
		})
		if err != nil {
			return nil, err
		}
		return sink, nil
	case config.SinkDatabase:
		sink, err := OpenSQLSink(ctx, cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, &Error{Target: string(cfg.Kind), Op: "configure", Err: fmt.Errorf("unknown sink kind")}
	}
}
