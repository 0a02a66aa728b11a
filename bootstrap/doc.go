// Package bootstrap holds the process setup shared by the CLI commands:
// logger construction, configuration loading and pre-flight checks on the
// input file and output directory.
//
// Usage:
//
//	_, sugar, err := bootstrap.InitLogger("info")
//	if err != nil {
//	    return err
//	}
//	cfg, err := bootstrap.InitConfig("", sugar)
//	if err != nil {
//	    return err
//	}
//	if err := bootstrap.CheckInput(cfg.Input.Path); err != nil {
//	    return err
//	}
package bootstrap
