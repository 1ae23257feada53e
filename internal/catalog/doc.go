// Package catalog holds the static description of the source corpus: the
// named category groups accepted by the --data-sets selector and the
// directory and archive naming templates for each split.
//
// The catalog is embedded YAML. Nothing here touches the filesystem; Paths
// only joins strings.
package catalog
