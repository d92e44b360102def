// Package driving provides interfaces for external actors
// (primary/inbound ports). The CLI and watcher call these.
package driving
