// Command stagecast assembles a narrated presenter video from a project
// directory in four ffmpeg stages: base composite, narration mux, picture
// overlay and caption burn-in.
//
// Each stage is its own subcommand; "run" chains them. Successful commands
// print the produced path on stdout. Errors go to stderr with exit status 1.
package main
