package lif

import "github.com/robert-malhotra/go-lif/internal/meta"

// Folder groups child folders and images. Folders carry no pixel data;
// their names form the path prefixes that disambiguate image names.
type Folder struct {
	name    string
	folders []*Folder
	images  []*Image
}

// newFolder mirrors the descriptor tree, reusing the Image wrappers built
// for File.Images so both views share one index per image.
func newFolder(desc *meta.Folder, byDesc map[*meta.Image]*Image) *Folder {
	folder := &Folder{name: desc.Name}
	for _, child := range desc.Folders {
		folder.folders = append(folder.folders, newFolder(child, byDesc))
	}
	for _, img := range desc.Images {
		folder.images = append(folder.images, byDesc[img])
	}
	return folder
}

// Name returns the folder name. The root folder's name is empty.
func (f *Folder) Name() string {
	return f.name
}

// Folders returns the child folders in document order.
func (f *Folder) Folders() []*Folder {
	return f.folders
}

// Images returns the images directly inside this folder.
func (f *Folder) Images() []*Image {
	return f.images
}
