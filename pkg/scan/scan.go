// Package scan builds an in-memory core.FSTree snapshot of a real directory
// on disk, the Go-native counterpart of generate_fstree (§4.1).
package scan

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/fran314/bbup/pkg/core"
	"github.com/fran314/bbup/pkg/hash"
	"github.com/fran314/bbup/pkg/parallelism"
)

// fileJob is a pending leaf-file hash computation discovered during the
// sequential directory walk and resolved afterwards by a parallel worker
// pass, so that the (serial, deterministic) tree structure is never
// blocked on the (parallel, unordered) cost of reading file contents
// (§4.11).
type fileJob struct {
	osPath  string
	relPath string
	size    int64
	mtime   core.Mtime
	node    *core.FSNode
}

type fileJobs struct {
	jobs  []*fileJob
	cache *HashCache
}

// Do implements parallelism.SIMDWork, hashing every job whose index modulo
// the worker count matches this worker's index.
func (b *fileJobs) Do(index, size int) error {
	for i := index; i < len(b.jobs); i += size {
		job := b.jobs[i]
		if cached, ok := b.cache.Lookup(job.relPath, job.size, job.mtime); ok {
			job.node.Hash = cached
			continue
		}
		h, err := hashFile(job.osPath)
		if err != nil {
			return errors.Wrapf(err, "hash file at path %s", job.relPath)
		}
		job.node.Hash = h
		b.cache.Store(job.relPath, job.size, job.mtime, h)
	}
	return nil
}

func hashFile(osPath string) (hash.Hash, error) {
	file, err := os.Open(osPath)
	if err != nil {
		return hash.Hash{}, err
	}
	defer file.Close()
	return hash.OfStream(file)
}

// Scan walks root on disk and returns the snapshot of its content,
// excluding anything exclude matches (§4.1). cache may be nil, in which
// case every file is rehashed from its bytes.
func Scan(root core.AbstPath, exclude *core.ExcludeList, cache *HashCache) (core.FSTree, error) {
	osRoot := root.ToOSPath()
	info, err := os.Stat(osRoot)
	if err != nil {
		return nil, errors.Wrap(err, "stat scan root")
	}
	if !info.IsDir() {
		return nil, &NonDirEntryPointError{Path: root}
	}

	if cache == nil {
		cache = NewHashCache(0)
	}

	tree, jobs, err := walk(osRoot, core.NewPath(), exclude)
	if err != nil {
		return nil, err
	}

	workers := parallelism.NewSIMDWorkerArray(runtime.NumCPU())
	defer workers.Terminate()
	if err := workers.Do(&fileJobs{jobs: jobs, cache: cache}); err != nil {
		return nil, err
	}

	finalizeHashes(tree)
	return tree, nil
}

// walk recursively builds the tree structure rooted at osPath, deferring
// every leaf file's content hash into the returned job list.
func walk(osPath string, relPath core.AbstPath, exclude *core.ExcludeList) (core.FSTree, []*fileJob, error) {
	entries, err := os.ReadDir(osPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "list directory content at path %s", relPath)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	tree := core.NewFSTree()
	var jobs []*fileJob

	for _, entry := range entries {
		name := norm.NFC.String(entry.Name())
		childOSPath := filepath.Join(osPath, entry.Name())
		childRelPath := relPath.WithLast(name)
		isDir := entry.IsDir()

		info, err := entry.Info()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "stat child at path %s", childRelPath)
		}
		isSymlink := info.Mode()&os.ModeSymlink != 0

		if exclude.ShouldExclude(childRelPath, isDir && !isSymlink) {
			continue
		}

		mtime := core.NewMtime(info.ModTime().Unix(), uint32(info.ModTime().Nanosecond()))

		switch {
		case isSymlink:
			target, err := os.Readlink(childOSPath)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "read symlink target at path %s", childRelPath)
			}
			endpoint := endpointForPlatform(childOSPath, target)
			tree[name] = &core.FSNode{
				Kind:  core.NodeKindSymLink,
				Mtime: mtime,
				Hash:  hash.Of(endpoint.Bytes()),
			}

		case isDir:
			subtree, subJobs, err := walk(childOSPath, childRelPath, exclude)
			if err != nil {
				return nil, nil, err
			}
			jobs = append(jobs, subJobs...)
			tree[name] = &core.FSNode{
				Kind:     core.NodeKindDir,
				Mtime:    mtime,
				Children: subtree,
			}

		default:
			node := &core.FSNode{Kind: core.NodeKindFile, Mtime: mtime}
			tree[name] = node
			jobs = append(jobs, &fileJob{
				osPath:  childOSPath,
				relPath: childRelPath.String(),
				size:    info.Size(),
				mtime:   mtime,
				node:    node,
			})
		}
	}

	return tree, jobs, nil
}

// endpointForPlatform records a symlink target with the tag appropriate to
// the platform it was read on. On Windows, a directory symlink and a file
// symlink are distinguishable by a stat of the target, which Unix symlinks
// have no equivalent of.
func endpointForPlatform(osPath, target string) core.Endpoint {
	if runtime.GOOS != "windows" {
		return core.NewUnixEndpoint(target)
	}
	targetInfo, err := os.Stat(osPath)
	isDir := err == nil && targetInfo.IsDir()
	return core.NewWindowsEndpoint(isDir, target)
}

// finalizeHashes recomputes every directory's hash bottom-up now that the
// parallel hashing pass has filled in every leaf file's hash.
func finalizeHashes(tree core.FSTree) {
	for _, node := range tree {
		if node.Kind == core.NodeKindDir {
			finalizeHashes(node.Children)
			node.Hash = core.HashTree(node.Children)
		}
	}
}
