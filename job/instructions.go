package job

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"shrinkray/models"
)

// Instructions describes one queued encode: where the input lives, what the
// output must be called, and the settings snapshot taken at upload time.
// Settings changes after upload never affect an already queued job.
type Instructions struct {
	Dir        string                `json:"dir"`         // per-job temp directory
	InputFile  string                `json:"input_file"`  // original filename inside Dir
	OutputFile string                `json:"output_file"` // derived output name incl. container ext
	Hash       string                `json:"hash"`        // SHA256 of the uploaded content
	UserID     string                `json:"user_id"`
	Settings   models.EncodeSettings `json:"settings"`
}

const instructionsFile = "instructions.json"

// WriteInstructions writes the job instructions into dir. The file doubles as
// the marker that identifies shrinkray job directories during the startup sweep.
func WriteInstructions(dir string, instr Instructions) error {
	path := filepath.Join(dir, instructionsFile)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create instructions file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(instr); err != nil {
		return fmt.Errorf("encode instructions: %w", err)
	}
	return nil
}

// ReadInstructions reads job instructions back from dir.
func ReadInstructions(dir string) (Instructions, error) {
	path := filepath.Join(dir, instructionsFile)
	file, err := os.Open(path)
	if err != nil {
		return Instructions{}, fmt.Errorf("open instructions file: %w", err)
	}
	defer file.Close()

	var instr Instructions
	if err := json.NewDecoder(file).Decode(&instr); err != nil {
		return Instructions{}, fmt.Errorf("decode instructions: %w", err)
	}
	return instr, nil
}
