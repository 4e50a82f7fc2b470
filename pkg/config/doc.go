// Package config provides configuration management for the rime runtime.
//
// A single Config structure carries every setting, organized into sections:
//
//   - Pools: reclamation cadence of the pooling engine
//   - Loop: tick rate and run length of the host update loop
//   - Templates: location of the template manifest
//   - Observability: logging, metrics and tracing
//
// # Usage
//
//	cfg := config.NewConfig("arena")
//	if err := config.Load("rime.yaml", cfg); err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// Loading on top of NewConfig keeps defaults for every field the file omits.
//
// # Environment Variable Substitution
//
//	# rime.yaml
//	name: arena
//	templates:
//	  manifest: ${RIME_TEMPLATES}
//	observability:
//	  metrics_addr: ${RIME_METRICS_ADDR}
package config
