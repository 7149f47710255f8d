// Package cli defines the restaurants command line and wires the data
// layer, logger and config before any subcommand runs.
//
// Commands
//
//   - browse         Interactive list and map browser
//   - ls             Print restaurants for a neighborhood and cuisine
//   - fav <id>       Toggle and persist a favorite
//   - serve          Expose the data source over HTTP
//   - import [file]  Seed the SQLite database from a JSON file
//   - auth           Save, inspect or delete the remote API token
package cli
