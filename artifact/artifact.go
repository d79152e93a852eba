// Package artifact persists fitted pipelines: a gob-encoded model file
// paired with a JSON manifest naming the expected input features. Loading
// validates the manifest before touching the model, so a missing or broken
// artifact fails fast with a precise error.
package artifact

import (
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/MerveCeylanX/Aqua-ML-App/boosting"
	"github.com/MerveCeylanX/Aqua-ML-App/core/model"
	"github.com/MerveCeylanX/Aqua-ML-App/pipeline"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/errors"
	"github.com/MerveCeylanX/Aqua-ML-App/pkg/log"
	"github.com/MerveCeylanX/Aqua-ML-App/preprocessing"
)

// Artifact file names inside the artifact directory.
const (
	ModelFileName    = "best_model.gob"
	ManifestFileName = "best_model.meta.json"
)

// Manifest describes a saved pipeline. Features is the raw input field
// list; an empty list marks the artifact invalid.
type Manifest struct {
	Model    string   `json:"model,omitempty"`
	Features []string `json:"features"`
}

func init() {
	// Concrete types behind the pipeline's interface fields.
	gob.Register(&preprocessing.OneHotEncoder{})
	gob.Register(&preprocessing.OrdinalEncoder{})
	gob.Register(&boosting.GBTRegressor{})
	gob.Register(&boosting.EBMRegressor{})
}

// Save writes the pipeline and its manifest into dir, creating it if
// needed. modelName labels the manifest for humans; it is not used on load.
func Save(dir, modelName string, pipe *pipeline.Pipeline) error {
	if pipe == nil {
		return errors.NewValueError("artifact.Save", "nil pipeline")
	}
	features := pipe.InputFeatures()
	if len(features) == 0 {
		return errors.NewInvalidManifestError(filepath.Join(dir, ManifestFileName), "pipeline declares no input features")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStack(err)
	}

	manifest := Manifest{Model: modelName, Features: features}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	manifestPath := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return errors.WithStack(err)
	}

	modelPath := filepath.Join(dir, ModelFileName)
	if err := model.SaveModel(pipe, modelPath); err != nil {
		return errors.Wrapf(err, "saving model to %s", modelPath)
	}

	log.GetLoggerWithName("artifact").Info("pipeline saved",
		log.ModelNameKey, modelName,
		"path", modelPath,
		log.FeaturesKey, len(features))
	return nil
}

// Load restores a saved pipeline from dir. The manifest must exist, parse
// and carry a non-empty feature list before the model file is read.
func Load(dir string) (*pipeline.Pipeline, *Manifest, error) {
	manifestPath := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewMissingArtifactError(manifestPath)
		}
		return nil, nil, errors.WithStack(err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, nil, errors.NewInvalidManifestError(manifestPath, err.Error())
	}
	if len(manifest.Features) == 0 {
		return nil, nil, errors.NewInvalidManifestError(manifestPath, "feature list is empty")
	}

	modelPath := filepath.Join(dir, ModelFileName)
	if _, err := os.Stat(modelPath); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewMissingArtifactError(modelPath)
		}
		return nil, nil, errors.WithStack(err)
	}

	var pipe pipeline.Pipeline
	if err := model.LoadModel(&pipe, modelPath); err != nil {
		return nil, nil, errors.Wrapf(err, "loading model from %s", modelPath)
	}

	log.GetLoggerWithName("artifact").Info("pipeline loaded",
		log.ModelNameKey, manifest.Model,
		"path", modelPath)
	return &pipe, &manifest, nil
}
