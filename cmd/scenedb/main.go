// Command scenedb drives the scene database end to end from the command
// line: load a mesh payload, load or save a world snapshot, rebuild the
// BVH, and run hull or ray-pick queries against it.
package main

import (
	"fmt"
	"os"

	"github.com/mirstar13/scenebvh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotPath string
	meshName     string
	plyPath      string
	heightScale  float64
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scenedb",
		Short: "Inspect and query a scene database snapshot",
	}
	root.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "path to a world snapshot file")
	root.AddCommand(loadCmd(), rebuildCmd(), hullCmd(), rayCmd())
	return root
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func openWorld() (*scene.World, error) {
	w := scene.NewWorld(newLogger())
	if snapshotPath == "" {
		return w, nil
	}
	f, err := os.Open(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	if err := scene.LoadSnapshot(w, f); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return w, nil
}

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a PLY mesh payload into a named mesh and rewrite the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if plyPath == "" || meshName == "" {
				return fmt.Errorf("--mesh and --ply are required")
			}
			w, err := openWorld()
			if err != nil {
				return err
			}
			mesh := w.FindMesh(meshName)
			if mesh == nil {
				mesh = w.AddMesh(meshName)
			}
			f, err := os.Open(plyPath)
			if err != nil {
				return fmt.Errorf("open ply: %w", err)
			}
			defer f.Close()
			if err := scene.LoadPLY(mesh, f); err != nil {
				return fmt.Errorf("load ply: %w", err)
			}
			return saveWorld(w)
		},
	}
	cmd.Flags().StringVar(&meshName, "mesh", "", "mesh name to populate")
	cmd.Flags().StringVar(&plyPath, "ply", "", "path to an ASCII PLY file")
	return cmd
}

func rebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the BVH over every tree-eligible instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorld()
			if err != nil {
				return err
			}
			opts := scene.DefaultBuildOptions()
			opts.HeightScale = heightScale
			w.Rebuild(opts)
			fmt.Printf("rebuilt: %d instances, %d meshes\n", w.InstanceCount(), w.MeshCount())
			return saveWorld(w)
		},
	}
	cmd.Flags().Float64Var(&heightScale, "height-scale", 1.0, "SAH xy-slab weight")
	return cmd
}

func hullCmd() *cobra.Command {
	var planeArgs []string
	cmd := &cobra.Command{
		Use:   "hull",
		Short: "List every instance surviving a half-space plane set",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorld()
			if err != nil {
				return err
			}
			planes, err := parsePlanes(planeArgs)
			if err != nil {
				return err
			}
			w.QueryHull(planes, func(mesh *scene.Mesh, transform scene.Matrix4, cookie any) {
				fmt.Printf("%s\n", mesh.Name)
			}, nil)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&planeArgs, "plane", nil, "half-space plane as a,b,c,d (up to 4)")
	return cmd
}

func rayCmd() *cobra.Command {
	var origin, dir []float64
	cmd := &cobra.Command{
		Use:   "ray",
		Short: "Pick the foremost triangle hit along a ray",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(origin) != 3 || len(dir) != 3 {
				return fmt.Errorf("--origin and --dir each take 3 components")
			}
			w, err := openWorld()
			if err != nil {
				return err
			}
			inst, hit, ok := w.RayPick(
				scene.Vec3{X: origin[0], Y: origin[1], Z: origin[2]},
				scene.Vec3{X: dir[0], Y: dir[1], Z: dir[2]},
			)
			if !ok {
				fmt.Println("no hit")
				return nil
			}
			fmt.Printf("hit %s at (%.4f, %.4f, %.4f)\n", inst.Name, hit.X, hit.Y, hit.Z)
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&origin, "origin", nil, "ray origin x,y,z")
	cmd.Flags().Float64SliceVar(&dir, "dir", nil, "ray direction x,y,z (z must be >= 0)")
	return cmd
}

func parsePlanes(args []string) ([]scene.Plane, error) {
	if len(args) > 4 {
		return nil, fmt.Errorf("at most 4 planes are supported")
	}
	planes := make([]scene.Plane, 0, len(args))
	for _, arg := range args {
		var a, b, c, d float64
		if _, err := fmt.Sscanf(arg, "%g,%g,%g,%g", &a, &b, &c, &d); err != nil {
			return nil, fmt.Errorf("invalid plane %q: %w", arg, err)
		}
		planes = append(planes, scene.Plane{A: a, B: b, C: c, D: d})
	}
	return planes, nil
}

func saveWorld(w *scene.World) error {
	if snapshotPath == "" {
		return nil
	}
	f, err := os.Create(snapshotPath)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()
	return scene.SaveSnapshot(w, f)
}
