// Package config loads, normalizes, and validates stagecast configuration data.
//
// Two sources feed a run. The TOML application config locates the project
// root, the fixed input assets beneath it, the output directory, and the
// ffmpeg/ffprobe binaries; environment fallbacks (STAGECAST_PROJECT_ROOT,
// STAGECAST_FFMPEG, STAGECAST_FFPROBE) fill gaps. The JSON layout file carries
// caption/title styling and encoder settings and is parsed leniently: bad
// values fall back to defaults and are reported as warnings rather than
// failing the run.
//
// Both values are built once at startup and passed explicitly to the stages.
package config
