package guide

// steps is the tutorial content. Numbers are stable; append only.
var steps = []Step{
	{
		Number:  1,
		Slug:    "install-python",
		Title:   "Install Python",
		Summary: "Get a supported interpreter on your PATH and verify it.",
		Body: []string{
			"Everything else in this guide assumes a working Python 3.8 or newer. " +
				"On macOS and Linux, install it through your package manager (brew, apt, dnf) " +
				"or from python.org; on Windows, use the official installer and tick " +
				"\"Add python.exe to PATH\".",
			"Verify the installation by asking for the version. Depending on the system " +
				"the binary is called python3 or python; either is fine as long as the " +
				"version it reports is 3.8 or newer.",
			"If you have several interpreters installed, note the path of the one you " +
				"want to use. Virtual environments (step 3) remember which interpreter " +
				"created them, so picking the right one now avoids surprises later.",
		},
		Commands: []string{
			"python3 --version",
			"which python3",
		},
		Related: "pysetup doctor",
	},
	{
		Number:  2,
		Slug:    "project-layout",
		Title:   "Create the project structure",
		Summary: "One directory per project, code at the top, tests in tests/.",
		Body: []string{
			"Give every project its own directory, named in lowercase with hyphens or " +
				"underscores. Inside it, start with a single main.py and a tests/ " +
				"directory; everything else in this guide hangs off that skeleton.",
			"main.py holds a first function you can run and test:",
			"def greet():\n    print(\"Hello, World!\")",
			"Larger projects often move the code into src/<package>/ instead of the " +
				"project root. That layout needs packaging metadata (pyproject.toml) " +
				"so the tests import the installed package, which is why most tutorials " +
				"start flat and migrate later.",
		},
		Commands: []string{
			"mkdir my-project",
			"cd my-project",
			"mkdir tests",
		},
		Files:   []string{"main.py", "tests/"},
		Related: "pysetup new",
	},
	{
		Number:  3,
		Slug:    "virtual-environment",
		Title:   "Create a virtual environment",
		Summary: "Isolate the project's packages from the system Python.",
		Body: []string{
			"Installing packages into the system Python eventually breaks something: " +
				"two projects want different versions of the same library, or an OS " +
				"tool depends on the exact versions already there. A virtual " +
				"environment is a private copy of the interpreter plus its own " +
				"site-packages, one per project.",
			"Create it once with the venv module that ships with Python, then " +
				"activate it in every shell where you work on the project. Activation " +
				"only rewires PATH for that shell; deactivate (or close the shell) to " +
				"leave it.",
			"The environment lives in a venv/ directory inside the project and is " +
				"disposable; never commit it. If it ever gets into a weird state, " +
				"delete the directory and create it again.",
		},
		Commands: []string{
			"python3 -m venv venv",
			"source venv/bin/activate",
		},
		Files:   []string{"venv/"},
		Related: "pysetup venv",
	},
	{
		Number:  4,
		Slug:    "dependencies",
		Title:   "Track dependencies with requirements.txt",
		Summary: "Pin what you install so the project builds the same everywhere.",
		Body: []string{
			"With the venv active, install packages with pip as usual. The catch is " +
				"that an install only changes your machine; requirements.txt is how " +
				"the project records what it needs, one specifier per line, usually " +
				"pinned to an exact version:",
			"requests==2.31.0\npython-dotenv==1.0.1",
			"Anyone (including CI, including you on a new laptop) can then recreate " +
				"the environment with a single install command. Keep the file in " +
				"version control and update it deliberately when you add or upgrade a " +
				"package.",
		},
		Commands: []string{
			"python -m pip install requests",
			"python -m pip install -r requirements.txt",
			"python -m pip freeze",
		},
		Files:   []string{"requirements.txt"},
		Related: "pysetup deps",
	},
	{
		Number:  5,
		Slug:    "version-control",
		Title:   "Initialize Git and write a .gitignore",
		Summary: "Put the project under version control before it grows.",
		Body: []string{
			"Initialize the repository in the project root. Before the first commit, " +
				"add a .gitignore so generated and private files never enter history: " +
				"at minimum __pycache__/, the venv/ directory, and .env (step 9). " +
				"Removing a secret from Git history after the fact is painful; not " +
				"committing it is free.",
			"Then stage everything and write the first commit. From here on, commit " +
				"small and often.",
		},
		Commands: []string{
			"git init",
			"git add .",
			"git commit -m \"Initial commit\"",
		},
		Files:   []string{".gitignore"},
		Related: "pysetup new",
	},
	{
		Number:  6,
		Slug:    "readme",
		Title:   "Write a README",
		Summary: "Explain what the project is and how to run it.",
		Body: []string{
			"The README is the project's front page. Three sections carry most of " +
				"the value: what the project does, how to set it up (create the venv, " +
				"install requirements), and how to run it and its tests. Write it for " +
				"someone who has never seen the code, because in six months that " +
				"someone is you.",
			"Markdown is the convention; hosting platforms render README.md " +
				"automatically at the repository root.",
		},
		Files:   []string{"README.md"},
		Related: "pysetup new",
	},
	{
		Number:  7,
		Slug:    "code-quality",
		Title:   "Format with black, lint with flake8",
		Summary: "Make style automatic so reviews can focus on behavior.",
		Body: []string{
			"black rewrites your files into one canonical style; flake8 reports " +
				"problems black cannot fix, like unused imports and undefined names. " +
				"Install both into the venv and record them in requirements.txt like " +
				"any other dependency.",
			"The two tools disagree on one point out of the box: flake8's default " +
				"line length is 79, black's is 88. Setting max-line-length = 88 in a " +
				".flake8 file keeps them compatible.",
			"Run black before every commit and flake8 in CI. Neither tool changes " +
				"what the code does; they only remove style from the list of things " +
				"humans have to argue about.",
		},
		Commands: []string{
			"python -m pip install black flake8",
			"black .",
			"flake8",
		},
		Files:   []string{".flake8"},
		Related: "pysetup check",
	},
	{
		Number:  8,
		Slug:    "testing",
		Title:   "Write a first unit test",
		Summary: "unittest ships with Python; one passing test changes habits.",
		Body: []string{
			"Tests live in the tests/ directory, in files named test_*.py, using the " +
				"standard library's unittest module. A first test for the greet " +
				"function just checks that calling it returns None:",
			"import unittest\n\nfrom main import greet\n\n\nclass TestGreet(unittest.TestCase):\n" +
				"    def test_greet_returns_none(self):\n        self.assertIsNone(greet())",
			"Run the whole suite from the project root with unittest's discovery. " +
				"The first test is rarely interesting; its job is to make the second " +
				"one cheap.",
		},
		Commands: []string{
			"python -m unittest",
		},
		Files:   []string{"tests/test_main.py"},
		Related: "pysetup check",
	},
	{
		Number:  9,
		Slug:    "environment-variables",
		Title:   "Keep secrets in .env files",
		Summary: "Configuration in the environment, never in the repository.",
		Body: []string{
			"API keys, database URLs and other per-machine settings do not belong in " +
				"code. The convention is a .env file of KEY=VALUE lines in the project " +
				"root, loaded at startup with the python-dotenv package:",
			"from dotenv import load_dotenv\n\nload_dotenv()",
			".env itself stays out of Git (step 5 added it to .gitignore). Commit a " +
				".env.example instead, listing every key the application reads with " +
				"empty or placeholder values, so a new machine knows what to fill in.",
		},
		Commands: []string{
			"python -m pip install python-dotenv",
			"cp .env.example .env",
		},
		Files:   []string{".env", ".env.example"},
		Related: "pysetup env",
	},
}
