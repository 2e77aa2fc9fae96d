package lif

// WalkFunc is called for each node during traversal.
// path is the slash-joined path of the node (the qualified name for
// images). obj is either *Folder or *Image.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(path string, obj interface{}) error

// Walk traverses the acquisition tree in depth-first, folders-then-images
// order, starting at the given folder (usually File.Root). The callback
// sees every folder and image, including the starting folder.
//
// Example:
//
//	lif.Walk(f.Root(), func(path string, obj interface{}) error {
//	    switch o := obj.(type) {
//	    case *lif.Folder:
//	        fmt.Println("Folder:", path)
//	    case *lif.Image:
//	        fmt.Println("Image:", path, "dims:", o.Dims())
//	    }
//	    return nil
//	})
func Walk(f *Folder, fn WalkFunc) error {
	return walkFolder(f, "", fn)
}

func walkFolder(f *Folder, parentPrefix string, fn WalkFunc) error {
	self := parentPrefix + f.Name()
	if err := fn(self, f); err != nil {
		return err
	}

	prefix := self
	if f.Name() != "" {
		prefix += "/"
	}

	for _, child := range f.Folders() {
		if err := walkFolder(child, prefix, fn); err != nil {
			return err
		}
	}
	for _, img := range f.Images() {
		if err := fn(img.QualifiedName(), img); err != nil {
			return err
		}
	}
	return nil
}
