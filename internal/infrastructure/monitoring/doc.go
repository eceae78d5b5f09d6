/*
Package monitoring provides metrics collection for compilations.

# Overview

Metrics are Prometheus collectors held in a private registry. A Metrics
value satisfies the orchestrator's Observer and the capsule registry's
Observer, so wiring it in is a matter of passing it to both.

# Metrics

- capsulec_compilations_total{platform,status}
- capsulec_compile_duration_seconds{platform}
- capsulec_files_emitted_total{platform}
- capsulec_issues_total{platform,severity,code}
- capsulec_compiler_state_entries_total{platform,state}
- capsulec_cache_lookups_total{platform,result}
- capsulec_registry_capsules, capsulec_registry_version

# Usage

	metrics := monitoring.NewMetrics()
	manager := registry.NewManager().WithObserver(metrics)
	opts := orchestrator.DefaultOptions()
	opts.Observer = metrics

	// after compiling
	metrics.WriteFile("metrics.prom")
*/
package monitoring
