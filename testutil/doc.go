// Package testutil provides fixtures for testing quoting rounds:
// generated operator keys, in-process operator services behind httptest
// listeners, and preconfigured clients and collectors pinned to a fixed
// test deployment.
package testutil
