// Package assets reads the static inputs of a production: the picture
// directory and the title file. It also writes the stage 3 picture map that
// ties each ffmpeg input label to its picture and cue window.
package assets
