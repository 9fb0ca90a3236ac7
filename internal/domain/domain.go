// Package domain holds the shared contracts and errors of the fuzzy
// search core.
package domain

// KeyPrefix namespaces every key this service writes to shared stores.
const KeyPrefix = "fuzzdex:"
