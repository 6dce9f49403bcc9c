// Package poller implements the core polling loop for GradePulse.
//
// This package is internal to GradePulse and drives the periodic
// fetch, validate, detect, notify cycle against the homework status API.
//
// The main components are:
//
//   - [Client]: authenticated HTTP fetch with cursor, no retries
//   - [Validate]: structural validation of the API payload
//   - [Detect]: change detection against the last observed status
//   - [Loop]: the fixed-interval driver with failure containment
//   - [Error]: the tagged failure taxonomy with alert signatures
//
// Users of the gradepulse library should not need to interact with this
// package directly. Configuration is done through the main gradepulse
// package.
package poller
