// Package loader builds a module tree from a directory hierarchy.
//
// Every directory under the root, the root included, becomes a module. Its
// path is the slash-joined chain of directory names starting at the root's
// own name, so loading ./Rover yields modules "Rover", "Rover/MainBoard" and
// so on.
//
// A directory declares connections in one connection file:
//
//	connections.json   [{"target": "../Power", "interface": "I2C"}]
//	connections.yaml   connections: [{target: Base, type: radio}]
//
// Both formats accept a bare list or an object with a "connections" key.
// The target may also be spelled "to". When a directory holds more than one
// connection file the first of json, yaml, yml wins.
//
// Hidden directories, the directories named in [Options.Skip] and paths
// matched by the root's .gitignore are not loaded. Symbolic links are never
// followed.
package loader
