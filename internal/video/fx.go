package video

import (
	"github.com/smallbiznis/showroom/internal/storage"
	"github.com/smallbiznis/showroom/internal/video/repository"
	"github.com/smallbiznis/showroom/internal/video/service"
	"go.uber.org/fx"
)

var Module = fx.Module("video.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(l *storage.Local) service.FileStore { return l }),
	fx.Provide(service.New),
)
