package jsengine

import "strings"

// programName identifies learner code in stack traces.
const programName = "main.js"

// prelude builds the learner-facing sugar on top of the two primitives and
// the stdout printer. It must stay on a single line so that user code
// starts on line 2 of the compiled program.
var prelude = strings.Join([]string{
	`const move_up = (steps) => move("up", steps);`,
	`const move_down = (steps) => move("down", steps);`,
	`const move_left = (steps) => move("left", steps);`,
	`const move_right = (steps) => move("right", steps);`,
	`const speak = (text) => log(String(text));`,
	`const hero = Object.freeze({ move: (direction, steps) => move(direction, steps), speak: (text) => speak(text) });`,
	`const Hero = hero;`,
}, " ")

// wrap places user code inside an inner function so that its top-level
// declarations are local to the run and may shadow the sugar.
func wrap(code string) string {
	return "(function (move, log, print) { " + prelude +
		" return function () {\n" + code + "\n}; })"
}

// userLineOffset converts program lines into user code lines.
const userLineOffset = 1
