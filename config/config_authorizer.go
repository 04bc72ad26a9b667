package config

import (
	"github.com/adrianliechti/lahde/pkg/auth/header"
	"github.com/adrianliechti/lahde/pkg/auth/static"
)

func (c *Config) registerAuthorizers(f *configFile) error {
	identifier, err := header.New()

	if err != nil {
		return err
	}

	key := f.Monitoring.Key

	if key == "" {
		key = DefaultMonitoringKey
	}

	monitoring, err := static.New(key)

	if err != nil {
		return err
	}

	c.Identifier = identifier
	c.Monitoring = monitoring

	return nil
}
