package model

import (
	"encoding/json"
	"fmt"
)

// LayerWeights は1つの隠れ層の重みとバイアスを表す（シリアライゼーション用）
type LayerWeights struct {
	// In は入力次元数
	In int `json:"in"`

	// Out は出力次元数（ニューロン数）
	Out int `json:"out"`

	// W は重み行列（行優先、In×Out）
	W []float64 `json:"w"`

	// B はバイアスベクトル（長さOut）
	B []float64 `json:"b"`
}

// NetworkWeights はELMネットワーク全体の重みを表す構造体（シリアライゼーション用）
type NetworkWeights struct {
	// ModelType はモデルの種類（ELMRegressor, MhaELMClassifier等）
	ModelType string `json:"model_type"`

	// Version はモデルのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Activation は隠れ層の活性化関数名
	Activation string `json:"activation"`

	// Layers は各隠れ層の重みとバイアス
	Layers []LayerWeights `json:"layers"`

	// Beta は出力重み行列（行優先、LastHidden×Outputs）
	Beta []float64 `json:"beta"`

	// BetaRows, BetaCols はBetaの形状
	BetaRows int `json:"beta_rows"`
	BetaCols int `json:"beta_cols"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（学習時の統計等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// ToJSON はNetworkWeightsをJSON形式にシリアライズ
func (nw *NetworkWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(nw, "", "  ")
}

// FromJSON はJSON形式からNetworkWeightsをデシリアライズ
func (nw *NetworkWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, nw)
}

// Validate はNetworkWeightsの妥当性を検証
func (nw *NetworkWeights) Validate() error {
	if nw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}

	if nw.Version == "" {
		return fmt.Errorf("version is required")
	}

	if !nw.IsFitted && len(nw.Beta) > 0 {
		return fmt.Errorf("unfitted model should not have output weights")
	}

	if nw.IsFitted && len(nw.Beta) == 0 {
		return fmt.Errorf("fitted model must have output weights")
	}

	if len(nw.Beta) != nw.BetaRows*nw.BetaCols {
		return fmt.Errorf("beta length %d does not match shape %dx%d", len(nw.Beta), nw.BetaRows, nw.BetaCols)
	}

	for i, layer := range nw.Layers {
		if len(layer.W) != layer.In*layer.Out {
			return fmt.Errorf("layer %d: weight length %d does not match shape %dx%d", i, len(layer.W), layer.In, layer.Out)
		}
		if len(layer.B) != layer.Out {
			return fmt.Errorf("layer %d: bias length %d does not match %d neurons", i, len(layer.B), layer.Out)
		}
	}

	return nil
}

// Clone はNetworkWeightsのディープコピーを作成
func (nw *NetworkWeights) Clone() *NetworkWeights {
	clone := &NetworkWeights{
		ModelType:       nw.ModelType,
		Version:         nw.Version,
		Activation:      nw.Activation,
		BetaRows:        nw.BetaRows,
		BetaCols:        nw.BetaCols,
		IsFitted:        nw.IsFitted,
		Beta:            make([]float64, len(nw.Beta)),
		Layers:          make([]LayerWeights, len(nw.Layers)),
		Hyperparameters: make(map[string]interface{}),
		Metadata:        make(map[string]interface{}),
	}

	copy(clone.Beta, nw.Beta)

	for i, layer := range nw.Layers {
		cl := LayerWeights{
			In:  layer.In,
			Out: layer.Out,
			W:   make([]float64, len(layer.W)),
			B:   make([]float64, len(layer.B)),
		}
		copy(cl.W, layer.W)
		copy(cl.B, layer.B)
		clone.Layers[i] = cl
	}

	for k, v := range nw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}

	for k, v := range nw.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}
