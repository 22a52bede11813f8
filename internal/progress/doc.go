// Package progress turns ffmpeg's status output into completion estimates.
//
// ffmpeg is run with -progress pipe:1, which writes blocks of key=value
// lines terminated by progress=continue or progress=end. [Parser] folds
// each block into an [Update]; the legacy "time=... speed=...x" stats line
// on stderr is understood too. [Reporter] renders updates as a progress bar
// on a terminal or as periodic log lines otherwise.
package progress
