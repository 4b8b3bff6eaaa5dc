// SPDX-License-Identifier: MIT

// Package spectrank ranks competitors from a table of scores with the vanilla
// spectral method and attaches bootstrap confidence intervals to every rank.
//
// What is spectrank?
//
//	A score table has one column per competitor (a model, a player, a
//	product) and one row per comparison context (a benchmark task, a match
//	day, a judge). Every row where two competitors both have a score yields
//	one pairwise outcome. spectrank turns those outcomes into a random walk
//	over competitors, takes its stationary distribution as a preference
//	score, and reports
//		• theta_hat – centred log-preference score per competitor
//		• rank      – 1 = best
//		• two-sided, one-sided and uniform rank confidence intervals
//
// Pipeline:
//
//	table/     - CSV ingestion, metadata-column dropping, missing values
//	pairwise/  - pairwise extraction, aggregation, connectivity checks
//	matrix/    - dense kernels and a deterministic Jacobi eigensolver
//	spectral/  - stationary distribution, theta, ranks, variance basis
//	bootstrap/ - Gaussian multiplier bootstrap and rank intervals
//	ranking/   - the invocation boundary: Request → Result or *Error
//	report/    - JSON, CSV, YAML and CBOR renderings
//	config/    - koanf-based configuration
//	telemetry/ - OpenTelemetry tracer provider
//	cmd/spectrank - the command-line tool
//
// Quick start:
//
//	tbl, _ := table.ReadFile("scores.csv")
//	res, err := ranking.Rank(ctx, ranking.Request{
//		Table: tbl, Direction: "higher", BootstrapCount: 2000, Seed: 42,
//	})
//
// Every invocation owns its random generator, so identical requests give
// identical results and concurrent invocations share nothing.
package spectrank
