/*
Package observability provides Prometheus metrics for provisioning runs.

Metrics are collected on a private registry, fed by lifecycle hooks while a
run is in progress and by RecordReport once it finishes. That registry is
written once to a node_exporter textfile, which suits a one-shot installer.

The status server instead registers a ReportCollector, which reads the newest
stored report on every scrape.
*/
package observability
