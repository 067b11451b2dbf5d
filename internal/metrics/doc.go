// Package metrics records build counters and timings.
//
// Components receive a Recorder by injection. NoopRecorder is the default, so
// callers never nil-check; PrometheusRecorder backs the --metrics-file textfile
// export and the preview server's /metrics endpoint.
package metrics
