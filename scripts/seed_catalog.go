// 手动写入内置课程、挑战和学习小组
//
// 只写入存储中缺失的集合，已有的进度不会被覆盖。
// 配置与主程序一致（config.yaml + 环境变量），主程序也可以用 -seed 参数完成同样的工作。
//
// 用法: go run scripts/seed_catalog.go [-config configs] [-dump]

package main

import (
	"context"
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/repository"
	"edusphere_backend/internal/service"
	"edusphere_backend/pkg/logger"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// catalogDump -dump 时输出的内置内容
type catalogDump struct {
	Lessons    []lessonDump    `yaml:"lessons"`
	Challenges []challengeDump `yaml:"challenges"`
	Groups     []groupDump     `yaml:"groups"`
}

type lessonDump struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Category  string `yaml:"category"`
	Points    int    `yaml:"points"`
	Questions int    `yaml:"questions"`
}

type challengeDump struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Type   string `yaml:"type"`
	Points int    `yaml:"points"`
	Tasks  int    `yaml:"tasks"`
}

type groupDump struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category"`
	MaxMembers int    `yaml:"max_members"`
}

func buildDump(catalog *service.CatalogService) catalogDump {
	var d catalogDump
	for _, l := range catalog.DefaultLessons() {
		d.Lessons = append(d.Lessons, lessonDump{
			ID: l.ID, Title: l.Title, Category: string(l.Category), Points: l.Points, Questions: len(l.QuizQuestions),
		})
	}
	for _, c := range catalog.DefaultChallenges() {
		d.Challenges = append(d.Challenges, challengeDump{
			ID: c.ID, Title: c.Title, Type: string(c.Type), Points: c.Points, Tasks: len(c.Tasks),
		})
	}
	for _, g := range catalog.DefaultGroups() {
		d.Groups = append(d.Groups, groupDump{
			ID: g.ID, Name: g.Name, Category: string(g.Category), MaxMembers: g.MaxMembers,
		})
	}
	return d
}

// run 加载配置、打开存储并写入缺失的集合；dump 不为 nil 时先输出内置内容
func run(ctx context.Context, configDir string, dump io.Writer) ([]string, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	logger.InitLogger(cfg)

	catalog := service.NewCatalogService(time.Now)
	if dump != nil {
		enc := yaml.NewEncoder(dump)
		enc.SetIndent(2)
		if err := enc.Encode(buildDump(catalog)); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}

	store, closeStore, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	return catalog.Seed(ctx, repository.NewStateRepository(store))
}

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	dump := flag.Bool("dump", false, "写入前以 YAML 输出内置内容")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	var out io.Writer
	if *dump {
		out = os.Stdout
	}

	seeded, err := run(context.Background(), *configDir, out)
	if err != nil {
		log.Fatalf("写入默认内容失败: %v", err)
	}
	log.Printf("完成！写入: %v", seeded)
}
