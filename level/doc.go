// Package level defines the grid-world data model shared by the simulation,
// the trace recorder and the host boundary.
//
// A [Config] describes one level: grid size, the player's start position and
// facing, collectible and obstacle cells, the learner's starter code and an
// optional step limit. Levels are validated once with [Config.Validate] when
// they enter the system and are read-only afterwards.
//
// # Coordinates
//
// [Position] holds a column (X) and a row (Y). Moving up decreases Y, down
// increases Y, left decreases X and right increases X.
//
// # Level files
//
// [Load] and [Parse] accept YAML or JSON using the same field names as the
// wire protocol:
//
//	gridSize: {rows: 5, cols: 5}
//	startPosition: {x: 0, y: 0}
//	startDirection: down
//	collectibles:
//	  - {x: 0, y: 2}
//	obstacles:
//	  - {x: 0, y: 1}
package level
