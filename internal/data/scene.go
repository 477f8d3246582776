package data

// Scene playback flags.
const (
	SceneFlagUnk16 uint32 = 0x10
)

// SceneTemplate describes a client-side scripted scene.
type SceneTemplate struct {
	SceneID        uint32 `yaml:"scene_id"`
	PlaybackFlags  uint32 `yaml:"playback_flags"`
	ScenePackageID uint32 `yaml:"scene_package_id"`
}

// ScenePackage is a client scene script package entry.
type ScenePackage struct {
	ID   uint32 `yaml:"id"`
	Name string `yaml:"name"`
}

type sceneTemplateListFile struct {
	Scenes []SceneTemplate `yaml:"scenes"`
}

type scenePackageListFile struct {
	Packages []ScenePackage `yaml:"packages"`
}

// LoadSceneTemplateTable loads scene templates from a YAML file.
func LoadSceneTemplateTable(path string) (*Table[SceneTemplate], error) {
	var f sceneTemplateListFile
	if err := readYAML(path, "scene_template", &f); err != nil {
		return nil, err
	}
	return newTable(f.Scenes, func(s *SceneTemplate) uint32 { return s.SceneID }), nil
}

// LoadScenePackageTable loads scene script packages from a YAML file.
func LoadScenePackageTable(path string) (*Table[ScenePackage], error) {
	var f scenePackageListFile
	if err := readYAML(path, "scene_package", &f); err != nil {
		return nil, err
	}
	return newTable(f.Packages, func(p *ScenePackage) uint32 { return p.ID }), nil
}
