// Package dataopt provides the data optimization tool for the model
// property analyzer. It converts a single large CSV dataset into derived
// artifacts the client application can load quickly:
//
//   - table_data.csv: a slim projection of essential columns for fast
//     bulk listing, with long text fields truncated
//   - detail_data.csv: a richer projection for on-demand per-row lookups,
//     subsampled when the dataset exceeds a configurable cap
//   - compressed copies of both (gzip by default)
//   - best-effort columnar copies (Parquet by default)
//   - data_index.json: a manifest describing the split and, when the
//     detail view was sampled, which original rows it retains
//
// The tool runs once per invocation and exits. See cmd/optimize for the
// CLI and internal/optimizer for the pipeline itself.
package dataopt
