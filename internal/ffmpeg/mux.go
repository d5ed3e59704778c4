package ffmpeg

import (
	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// MuxArgs builds the arguments that add the narration track to a silent
// video: the first video stream is copied, the first audio stream is encoded
// to 192k AAC, and the output ends with the shorter input.
func MuxArgs(video, audio, output string) []string {
	v := ffmpeggo.Input(video).Get("v:0")
	a := ffmpeggo.Input(audio).Get("a:0")
	return ffmpeggo.Output([]*ffmpeggo.Stream{v, a}, output, ffmpeggo.KwArgs{
		"c:v":      "copy",
		"c:a":      "aac",
		"b:a":      "192k",
		"shortest": "",
	}).GlobalArgs("-hide_banner").OverWriteOutput().GetArgs()
}
