// Package services implements the driving port interfaces.
// Services hold the pipeline logic (discovery, batch orchestration,
// consolidation, history and settings) and call out to driven ports
// for everything that touches processes or the filesystem.
package services
