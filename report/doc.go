// Package report renders analysis results for people and tools: JSON for
// clients, Markdown for sharing, and a Parquet export of the stored history.
package report
