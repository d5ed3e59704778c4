package config

// Files the pipeline writes to the output directory.
const (
	ArtifactStage1Video  = "stage1_base.mp4"
	ArtifactTitleASS     = "title_top.ass"
	ArtifactStage2Video  = "stage2_with_audio.mp4"
	ArtifactStage3Video  = "stage3_with_images.mp4"
	ArtifactStage3Filter = "stage3_filter.txt"
	ArtifactPictureMap   = "stage3_picture_map.txt"
	ArtifactFinalVideo   = "final_stages.mp4"
	ArtifactCaptionsASS  = "timeline_word_reveal.ass"
	ArtifactKaraokeASS   = "timeline_karaoke.ass"
	ArtifactStage4Filter = "stage4_filter.txt"
	ArtifactLock         = "pipeline.lock"
	ArtifactJournal      = "journal.db"
)

// StageOutputs maps stage numbers to the video each produces.
var StageOutputs = map[int]string{
	1: ArtifactStage1Video,
	2: ArtifactStage2Video,
	3: ArtifactStage3Video,
	4: ArtifactFinalVideo,
}
