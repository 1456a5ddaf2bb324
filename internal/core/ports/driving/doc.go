// Package driving provides interfaces for primary/inbound ports: the
// operations the CLI, scheduler, or web layer invoke on the core.
package driving
