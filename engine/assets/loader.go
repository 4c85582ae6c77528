package assets

import "github.com/spaghettifunk/trainyard/engine/renderer/metadata"

type Loader interface {
	// The resource Data depends on the loader: *scene.Texture for images,
	// *scene.Node for models.
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
