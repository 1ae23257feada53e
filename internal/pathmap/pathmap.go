package pathmap

import "strings"

const (
	LabelExt = ".json"
	AudioExt = ".pcm"
	WAVExt   = ".wav"
)

// Rule rewrites every occurrence of From with To.
type Rule struct {
	Name string
	From string
	To   string
}

// LabelToAudioRules map the label tree onto the audio tree.
var LabelToAudioRules = []Rule{
	{Name: "training labels", From: "라벨링데이터/TL_", To: "원천데이터/TS_"},
	{Name: "validation labels", From: "라벨링데이터/VL_", To: "원천데이터/VS_"},
}

// AudioFixups correct folders in the source corpus that break the naming rule.
var AudioFixups = []Rule{
	// The validation archive for category 8 unpacks into "01.*" style folders
	// instead of "VS_*"; the audio lives under VS_8.단위/VS_<n>.
	{Name: "validation unit folder", From: "/VS_8.단위/0", To: "/VS_8.단위/VS_"},
}

// ProcessedRules map the audio tree onto the converted WAV tree.
var ProcessedRules = []Rule{
	{Name: "training output", From: "Training", To: "Training_Processed"},
	{Name: "validation output", From: "Validation", To: "Validation_Processed"},
}

// Apply runs rules in order and returns the rewritten path.
func Apply(path string, rules []Rule) string {
	for _, rule := range rules {
		if rule.From == "" {
			continue
		}
		path = strings.ReplaceAll(path, rule.From, rule.To)
	}
	return path
}

// AudioPath returns the PCM path paired with a label file. It does not check
// that the file exists.
func AudioPath(labelPath string) string {
	audio := Apply(labelPath, LabelToAudioRules)
	audio = swapExt(audio, LabelExt, AudioExt)
	return Apply(audio, AudioFixups)
}

// WAVPath returns the converted WAV path for a PCM file.
func WAVPath(audioPath string) string {
	return swapExt(Apply(audioPath, ProcessedRules), AudioExt, WAVExt)
}

func swapExt(path, from, to string) string {
	if strings.HasSuffix(path, from) {
		return strings.TrimSuffix(path, from) + to
	}
	return path + to
}
