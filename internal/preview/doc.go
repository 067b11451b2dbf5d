// Package preview serves a build output over HTTP and rebuilds it whenever the
// input tree changes. Every rebuild is a full build.Builder run.
package preview
