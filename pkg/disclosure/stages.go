package disclosure

// StageCount is the number of journey stages between Collapsed and Full.
const StageCount = 6

// stageCore lists each stage's fixed core nodes. The visible set of a
// stage is this list plus everything one graph hop away from it
// (see State.VisibleNodes). Index 0 is unused; stages are 1-based.
var stageCore = [StageCount + 1][]string{
	1: {"environment", "production"},
	2: {"environment", "production", "packhouses", "processing"},
	3: {"environment", "production", "packhouses", "processing", "distribution"},
	4: {"environment", "production", "packhouses", "processing", "distribution",
		"wholesalers", "supermarkets_grocers"},
	5: {"environment", "production", "packhouses", "processing", "distribution",
		"wholesalers", "supermarkets_grocers", "consumption"},
	6: {"environment", "production", "packhouses", "processing", "distribution",
		"wholesalers", "supermarkets_grocers", "consumption",
		"waste_collection", "waste_processing", "organics_recycling"},
}

// StageCore returns the fixed core-node list for a journey stage.
// Out-of-range stages return nil.
func StageCore(stage int) []string {
	if stage < 1 || stage > StageCount {
		return nil
	}
	return stageCore[stage]
}
