// 初始化课程目录脚本
//
// 向数据库写入与移动端内置目录一致的课程、课时、练习和结课测验，
// 已存在的课程会被整体覆盖。
//
// 用法: go run scripts/seed_courses.go
package main

import (
	"encoding/json"
	"log"

	"github.com/jk08y/PyAIApp/internal/config"
	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/pkg/database"
	"github.com/jk08y/PyAIApp/pkg/logger"
)

func jsonList(items ...string) json.RawMessage {
	data, err := json.Marshal(items)
	if err != nil {
		log.Fatalf("编码列表失败: %v", err)
	}
	return data
}

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	cfg.ForceMigrate = true

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	courseRepo := repository.NewCourseRepository(db)
	testRepo := repository.NewTestRepository(db)

	for i := range seedCourses {
		if err := courseRepo.Save(&seedCourses[i]); err != nil {
			log.Fatalf("写入课程 %s 失败: %v", seedCourses[i].ID, err)
		}
		log.Printf("课程已写入: %s", seedCourses[i].ID)
	}

	for i := range seedTests {
		if err := testRepo.Save(&seedTests[i]); err != nil {
			log.Fatalf("写入测验 %s 失败: %v", seedTests[i].CourseID, err)
		}
		log.Printf("结课测验已写入: %s", seedTests[i].CourseID)
	}

	log.Println("课程目录初始化完成")
}

var seedCourses = []model.Course{
	{
		UUIDBase:    model.UUIDBase{ID: "python-fundamentals"},
		Title:       "Python Fundamentals",
		Description: "Learn the basics of Python programming language, from variables and data types to functions and object-oriented programming.",
		Thumbnail:   "https://cdn.pyai.app/courses/python-fundamentals.jpg",
		Category:    model.CategoryPython,
		Level:       model.LevelBeginner,
		Duration:    "10 hours",
		IsPremium:   false,
		Popularity:  980,
		Rating:      4.8,
		LearningPoints: jsonList(
			"Understand Python syntax and basic programming concepts",
			"Work with variables, data types, and control structures",
			"Create and use functions, modules, and packages",
			"Learn object-oriented programming with Python",
			"Handle errors and exceptions in your code",
		),
		Requirements: jsonList(
			"No prior programming experience required",
			"A computer with internet access",
			"Enthusiasm to learn programming",
		),
		InstructorName:   "Dr. Sarah Johnson",
		InstructorTitle:  "Python Expert & Computer Science Professor",
		InstructorAvatar: "https://cdn.pyai.app/instructors/sarah-johnson.jpg",
		InstructorBio:    "Dr. Sarah Johnson has over 15 years of experience teaching Python programming. She holds a Ph.D. in Computer Science and has authored several books on programming.",
		Lessons: []model.Lesson{
			{
				UUIDBase: model.UUIDBase{ID: "python-intro"},
				CourseID: "python-fundamentals",
				Position: 0,
				Title:    "Introduction to Python",
				Duration: "45 min",
				Sections: []model.LessonSection{
					{
						UUIDBase:    model.UUIDBase{ID: "what-is-python"},
						LessonID:    "python-intro",
						Position:    0,
						Title:       "What is Python?",
						Type:        model.SectionText,
						Description: "Python is a high-level, interpreted programming language known for its readability and simplicity. Created by Guido van Rossum and first released in 1991, Python has since become one of the most popular programming languages in the world.",
					},
					{
						UUIDBase:    model.UUIDBase{ID: "python-features"},
						LessonID:    "python-intro",
						Position:    1,
						Title:       "Key Features of Python",
						Type:        model.SectionText,
						Description: "Python has several key features that make it an excellent choice for beginners and experienced programmers alike:\n\n- Simple, easy-to-learn syntax\n- Interpreted language\n- Dynamically typed\n- Object-oriented programming support\n- Rich standard library\n- Cross-platform compatibility",
					},
					{
						UUIDBase:    model.UUIDBase{ID: "python-installation"},
						LessonID:    "python-intro",
						Position:    2,
						Title:       "Installing Python",
						Type:        model.SectionVideo,
						Description: "In this video, we'll walk through the process of installing Python on different operating systems.",
					},
				},
				Exercises: []model.Exercise{
					{
						UUIDBase:     model.UUIDBase{ID: "hello-world"},
						LessonID:     "python-intro",
						CourseID:     "python-fundamentals",
						Position:     0,
						Title:        "Hello, World!",
						Description:  "Let's write your first Python program! Create a program that prints \"Hello, World!\" to the console.",
						Instructions: "Use the print() function to display the text \"Hello, World!\" (including the quotes).",
						StarterCode:  "# Write your code below\n\n",
						Solution:     "print(\"Hello, World!\")",
						Hint:         "The print() function is used to output text to the console. Don't forget to use quotes around the text.",
					},
				},
			},
			{
				UUIDBase: model.UUIDBase{ID: "variables-data-types"},
				CourseID: "python-fundamentals",
				Position: 1,
				Title:    "Variables and Data Types",
				Duration: "60 min",
				Sections: []model.LessonSection{
					{
						UUIDBase:    model.UUIDBase{ID: "variables"},
						LessonID:    "variables-data-types",
						Position:    0,
						Title:       "Variables in Python",
						Type:        model.SectionText,
						Description: "Variables are containers for storing data values. Unlike other programming languages, Python has no command for declaring a variable: a variable is created the moment you first assign a value to it.",
					},
					{
						UUIDBase:    model.UUIDBase{ID: "data-types"},
						LessonID:    "variables-data-types",
						Position:    1,
						Title:       "Basic Data Types",
						Type:        model.SectionText,
						Description: "Python's basic data types include integers, floats, strings, and booleans. The type() function returns the type of any value.",
					},
					{
						UUIDBase: model.UUIDBase{ID: "data-type-examples"},
						LessonID: "variables-data-types",
						Position: 2,
						Title:    "Data Type Examples",
						Type:     model.SectionCode,
						Language: "python",
						Code:     "age = 25            # int\ntemperature = 98.6  # float\nname = \"Alice\"      # str\nis_student = True   # bool\n\nprint(type(age))\nprint(type(temperature))\nprint(type(name))\nprint(type(is_student))",
					},
				},
				Exercises: []model.Exercise{
					{
						UUIDBase:     model.UUIDBase{ID: "variable-assignment"},
						LessonID:     "variables-data-types",
						CourseID:     "python-fundamentals",
						Position:     0,
						Title:        "Variable Assignment",
						Description:  "Practice creating variables of different types and printing them.",
						Instructions: "Create an integer variable age with value 25, a float variable temperature with value 98.6, and a string variable greeting with value \"Hello, Python!\". Then print all three.",
						StarterCode:  "# Create your variables below\n\n\n# Print the variables\n",
						Solution:     "age = 25\ntemperature = 98.6\ngreeting = \"Hello, Python!\"\n\nprint(age)\nprint(temperature)\nprint(greeting)",
						Hint:         "Assign values to variables using the equals sign. Integer values don't need quotes, float values use decimal points, and strings need quotes.",
					},
				},
			},
		},
	},
	{
		UUIDBase:    model.UUIDBase{ID: "intro-to-machine-learning"},
		Title:       "Introduction to Machine Learning with Python",
		Description: "Discover the fundamentals of machine learning and build your first models using Python, scikit-learn, and real datasets.",
		Thumbnail:   "https://cdn.pyai.app/courses/intro-to-machine-learning.jpg",
		Category:    model.CategoryAI,
		Level:       model.LevelIntermediate,
		Duration:    "15 hours",
		IsPremium:   true,
		Popularity:  860,
		Rating:      4.7,
		LearningPoints: jsonList(
			"Understand core machine learning concepts and workflows",
			"Preprocess data for machine learning models",
			"Train and evaluate supervised learning models",
			"Apply scikit-learn to real-world datasets",
		),
		Requirements: jsonList(
			"Basic Python programming knowledge",
			"Familiarity with basic mathematics",
		),
		InstructorName:   "Dr. Michael Chen",
		InstructorTitle:  "AI Researcher & Data Scientist",
		InstructorAvatar: "https://cdn.pyai.app/instructors/michael-chen.jpg",
		InstructorBio:    "Dr. Michael Chen is an AI researcher with a decade of industry experience building production machine learning systems.",
		Lessons: []model.Lesson{
			{
				UUIDBase: model.UUIDBase{ID: "ml-fundamentals"},
				CourseID: "intro-to-machine-learning",
				Position: 0,
				Title:    "Machine Learning Fundamentals",
				Duration: "60 min",
				Sections: []model.LessonSection{
					{
						UUIDBase:    model.UUIDBase{ID: "what-is-ml"},
						LessonID:    "ml-fundamentals",
						Position:    0,
						Title:       "What is Machine Learning?",
						Type:        model.SectionText,
						Description: "Machine learning is a branch of artificial intelligence that enables systems to learn patterns from data and make decisions without being explicitly programmed.",
					},
					{
						UUIDBase:    model.UUIDBase{ID: "ml-types"},
						LessonID:    "ml-fundamentals",
						Position:    1,
						Title:       "Types of Machine Learning",
						Type:        model.SectionText,
						Description: "The three main paradigms are supervised learning (labeled data), unsupervised learning (finding patterns in unlabeled data), and reinforcement learning (learning through rewards).",
					},
				},
				Exercises: []model.Exercise{
					{
						UUIDBase:     model.UUIDBase{ID: "ml-concepts"},
						LessonID:     "ml-fundamentals",
						CourseID:     "intro-to-machine-learning",
						Position:     0,
						Title:        "Machine Learning Concepts",
						Description:  "Implement a function that classifies a description of a learning problem into its machine learning paradigm.",
						Instructions: "Complete identify_ml_type so it returns 'supervised', 'unsupervised', or 'reinforcement' based on keywords in the description.",
						StarterCode:  "def identify_ml_type(description):\n    # Your code here\n    pass\n",
						Solution:     "if \"labeled\" in description.lower():",
						Hint:         "Supervised learning uses labeled data, unsupervised learning finds patterns in unlabeled data, and reinforcement learning involves rewards and trial-and-error.",
					},
				},
			},
			{
				UUIDBase: model.UUIDBase{ID: "data-preprocessing"},
				CourseID: "intro-to-machine-learning",
				Position: 1,
				Title:    "Data Preprocessing for ML",
				Duration: "75 min",
				Sections: []model.LessonSection{
					{
						UUIDBase:    model.UUIDBase{ID: "importance-preprocessing"},
						LessonID:    "data-preprocessing",
						Position:    0,
						Title:       "Importance of Data Preprocessing",
						Type:        model.SectionText,
						Description: "Real-world data is messy. Preprocessing handles missing values, scales features, and encodes categorical variables so models can learn effectively.",
					},
				},
				Exercises: []model.Exercise{
					{
						UUIDBase:     model.UUIDBase{ID: "missing-values"},
						LessonID:     "data-preprocessing",
						CourseID:     "intro-to-machine-learning",
						Position:     0,
						Title:        "Handling Missing Values",
						Description:  "Use scikit-learn's SimpleImputer to handle missing values in a DataFrame.",
						Instructions: "Complete handle_missing_values using SimpleImputer with median strategy for numerical columns and most_frequent for categorical columns.",
						StarterCode:  "import pandas as pd\nfrom sklearn.impute import SimpleImputer\n\ndef handle_missing_values(df):\n    # Your code here\n    return df\n",
						Solution:     "SimpleImputer(strategy='median')",
						Hint:         "Use SimpleImputer with strategy=\"median\" for numerical columns and strategy=\"most_frequent\" for categorical columns.",
					},
				},
			},
		},
	},
}

var seedTests = []model.CourseTest{
	{
		UUIDBase:  model.UUIDBase{ID: "python-fundamentals-test"},
		CourseID:  "python-fundamentals",
		Title:     "Python Fundamentals Final Test",
		TimeLimit: 10,
		Questions: []model.TestQuestion{
			{
				UUIDBase:        model.UUIDBase{ID: "q-print"},
				TestID:          "python-fundamentals-test",
				Position:        0,
				Prompt:          "Which function outputs text to the console in Python?",
				CorrectAnswerID: "q-print-a1",
				Answers: []model.TestAnswer{
					{UUIDBase: model.UUIDBase{ID: "q-print-a1"}, QuestionID: "q-print", Position: 0, Text: "print()"},
					{UUIDBase: model.UUIDBase{ID: "q-print-a2"}, QuestionID: "q-print", Position: 1, Text: "echo()"},
					{UUIDBase: model.UUIDBase{ID: "q-print-a3"}, QuestionID: "q-print", Position: 2, Text: "console.log()"},
					{UUIDBase: model.UUIDBase{ID: "q-print-a4"}, QuestionID: "q-print", Position: 3, Text: "write()"},
				},
			},
			{
				UUIDBase:        model.UUIDBase{ID: "q-types"},
				TestID:          "python-fundamentals-test",
				Position:        1,
				Prompt:          "What is the type of the value 98.6 in Python?",
				CodeSnippet:     "temperature = 98.6\nprint(type(temperature))",
				CorrectAnswerID: "q-types-a2",
				Answers: []model.TestAnswer{
					{UUIDBase: model.UUIDBase{ID: "q-types-a1"}, QuestionID: "q-types", Position: 0, Text: "int"},
					{UUIDBase: model.UUIDBase{ID: "q-types-a2"}, QuestionID: "q-types", Position: 1, Text: "float"},
					{UUIDBase: model.UUIDBase{ID: "q-types-a3"}, QuestionID: "q-types", Position: 2, Text: "str"},
					{UUIDBase: model.UUIDBase{ID: "q-types-a4"}, QuestionID: "q-types", Position: 3, Text: "decimal"},
				},
			},
			{
				UUIDBase:        model.UUIDBase{ID: "q-variables"},
				TestID:          "python-fundamentals-test",
				Position:        2,
				Prompt:          "How do you create a variable in Python?",
				CorrectAnswerID: "q-variables-a3",
				Answers: []model.TestAnswer{
					{UUIDBase: model.UUIDBase{ID: "q-variables-a1"}, QuestionID: "q-variables", Position: 0, Text: "var x = 5"},
					{UUIDBase: model.UUIDBase{ID: "q-variables-a2"}, QuestionID: "q-variables", Position: 1, Text: "int x = 5"},
					{UUIDBase: model.UUIDBase{ID: "q-variables-a3"}, QuestionID: "q-variables", Position: 2, Text: "x = 5"},
					{UUIDBase: model.UUIDBase{ID: "q-variables-a4"}, QuestionID: "q-variables", Position: 3, Text: "let x = 5"},
				},
			},
		},
	},
}
