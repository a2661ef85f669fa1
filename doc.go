/*

Netnode is a persistent key/value store organized into named
namespaces, able to store values of arbitrary size.

Vocabulary:

- db: on-disk database directory holding all namespaces and blobs
- namespace: name identifying one netnode; by convention names of
	shared/global nodes start with "$"
- node: handle on one namespace; provides the key/value operations
- key: an integer or a string, unique within a node
- value: byte payload of any length; compressed before storage
- slot: per-key record file under the node dir; holds either the
	compressed value inline or a manifest of chunk addresses
- blob: content-addressed chunk of a large value; deduplication atom;
	stored as a WORM file under blob/
- canpath: canonical path of a blob, without subdirs
- subdir: three-character hexadecimal segment of a blob hash, used to
	keep directory sizes small; the number of subdirs is fixed at
	database creation

*/

package netnode
