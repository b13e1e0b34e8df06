package pipeline

import (
	"go-ocr-pipeline/pkg/models"
)

// EngineInfo reports the recognition backends and preprocessing features of
// this pipeline, in fallback order.
func (p *Pipeline) EngineInfo() models.EngineInfo {
	engines := p.selector.Engines()
	primary := ""
	if len(engines) > 0 {
		primary = engines[0]
	}
	return models.EngineInfo{
		Engines:          engines,
		PrimaryEngine:    primary,
		SupportedFormats: p.validator.SupportedFormats(),
		MaxImageSize:     p.cfg.MaxImageDimension,
		Preprocessing:    p.preCfg.Features(),
		ContentTypes:     models.ContentTypes,
	}
}
