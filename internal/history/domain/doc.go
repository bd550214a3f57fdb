// Package domain defines the run-history entity and the repository port used
// to persist it. A Run records one invocation of the BBH pipeline: which
// inputs it used, where it wrote, and how it ended.
//
// Storage implementations live under internal/infrastructure.
package domain
