package wormhole

// Option configures a SceneRenderer during creation.
//
// Example:
//
//	// Default backend, skyboxes from textures/skybox1 and textures/skybox2
//	r, err := wormhole.NewSceneRenderer(space, 800, 600)
//
//	// Explicit backend and PNG skyboxes elsewhere
//	r, err := wormhole.NewSceneRenderer(space, 800, 600,
//	    wormhole.WithBackend(wormhole.NewSoftwareBackend(0)),
//	    wormhole.WithSkyboxDirs("assets/milkyway", "assets/nebula"),
//	    wormhole.WithExtension("png"))
type Option func(*options)

// options holds optional configuration for SceneRenderer creation.
type options struct {
	backend     Backend
	backendName string
	skybox1Dir  string
	skybox2Dir  string
	ext         string
	loader      ImageLoader
	skybox1     *Cubemap
	skybox2     *Cubemap
	cubemaps    *CubemapCache
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		skybox1Dir: DefaultSkybox1Dir,
		skybox2Dir: DefaultSkybox2Dir,
		ext:        DefaultExtension,
		loader:     FileLoader{},
	}
}

// WithBackend sets the backend instance. The renderer takes ownership and
// closes it in Close.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithBackendName selects a registered backend by name. It is ignored
// when WithBackend is also given.
func WithBackendName(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}

// WithSkyboxDirs sets the directories of the near (skybox 1) and far
// (skybox 2) cubemaps.
func WithSkyboxDirs(near, far string) Option {
	return func(o *options) {
		o.skybox1Dir = near
		o.skybox2Dir = far
	}
}

// WithExtension sets the file extension of the face images, without the dot.
func WithExtension(ext string) Option {
	return func(o *options) {
		o.ext = ext
	}
}

// WithImageLoader sets the loader used to read face images.
func WithImageLoader(l ImageLoader) Option {
	return func(o *options) {
		if l != nil {
			o.loader = l
		}
	}
}

// WithCubemaps supplies already loaded cubemaps, skipping file loading.
func WithCubemaps(near, far *Cubemap) Option {
	return func(o *options) {
		o.skybox1 = near
		o.skybox2 = far
	}
}

// WithCubemapCache loads skyboxes through c, sharing decoded faces with
// other renderers that use the same cache.
func WithCubemapCache(c *CubemapCache) Option {
	return func(o *options) {
		o.cubemaps = c
	}
}
