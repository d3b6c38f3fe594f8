// internal/services/generation.go
package services

import (
	"context"

	"github.com/Corphon/ClipForge/internal/utils"
)

// generationTier 一个生成层级：按优先级依次尝试，第一个成功者胜出
// Run 返回错误时记录日志并继续下一层级，不向调用方抛出
type generationTier[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// runTiers 按顺序折叠层级列表，全部失败时调用 fallback
// fallback 是确定性的离线生成，永不失败，保证调用方总能拿到结构合法的结果
func runTiers[T any](ctx context.Context, kind string, tiers []generationTier[T], fallback func() T) (T, string) {
	for _, tier := range tiers {
		result, err := tier.Run(ctx)
		if err != nil {
			utils.GetLogger().Warn("生成层级失败，继续下一层级", map[string]interface{}{
				"kind":  kind,
				"tier":  tier.Name,
				"error": err.Error(),
			})
			utils.GetMetricsCollector().IncrementCounter(kind + ".tier_failure." + tier.Name)
			continue
		}

		utils.GetMetricsCollector().IncrementCounter(kind + ".generated." + tier.Name)
		return result, tier.Name
	}

	utils.GetMetricsCollector().IncrementCounter(kind + ".generated.fallback")
	return fallback(), GeneratedByFallback
}

// 生成路径标签
const (
	GeneratedByFallback = "fallback"
)
