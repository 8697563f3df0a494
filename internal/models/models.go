// Package models provides the data structures shared by the SMS parser and the
// collaborators that consume its output.
package models
