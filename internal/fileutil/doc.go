// Package fileutil holds small filesystem helpers shared across packages.
package fileutil
