// Package nodemonitor periodically samples this node's health (CPU, memory,
// disk, network, and signal-processing load) and publishes it onto the event
// bus as a NodeMetricsEvent. The node monitor that consumes these events is
// an external collaborator; this package only produces.
package nodemonitor
