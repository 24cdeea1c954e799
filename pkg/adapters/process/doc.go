// Package process renders diagrams by running an external layout binary.
package process
