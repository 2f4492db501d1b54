// Package config loads pipeline settings from a YAML file, a .env file and
// environment variables, and turns them into pipeline options.
//
//	cfg, err := config.Load(config.WithConfigFile("blockpipe.yml"))
//	if err != nil {
//		return err
//	}
//	pipe, err := pipeline.New(src, cfg.Options(os.Stderr)...)
package config
